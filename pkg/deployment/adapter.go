/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package deployment is the only code that talks to the cluster. It operates
// on exactly one deployment in exactly one namespace, both fixed at compile
// time, and issues single-shot calls with a hard timeout and no retries.
package deployment

import (
	"context"
	"errors"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
	commonerrors "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/errors"
)

const (
	Namespace = common.ChatbotNamespace
	Name      = common.ChatbotDeployment

	MinReplicas int32 = 1
	MaxReplicas int32 = 5

	// callTimeout bounds every cluster round trip
	callTimeout = 15 * time.Second

	restartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"
)

type PodInfo struct {
	Name      string     `json:"name"`
	Phase     string     `json:"phase"`
	Ready     bool       `json:"ready"`
	Restarts  int32      `json:"restarts"`
	StartTime *time.Time `json:"startTime,omitempty"`
}

type DeploymentStatus struct {
	Name              string    `json:"name"`
	Namespace         string    `json:"namespace"`
	SpecReplicas      int32     `json:"specReplicas"`
	ReadyReplicas     int32     `json:"readyReplicas"`
	AvailableReplicas int32     `json:"availableReplicas"`
	UpdatedReplicas   int32     `json:"updatedReplicas"`
	Pods              []PodInfo `json:"pods"`
}

type Adapter struct {
	clientSet kubernetes.Interface
}

func NewAdapter(clientSet kubernetes.Interface) *Adapter {
	return &Adapter{clientSet: clientSet}
}

// Scale sets the deployment's replica count. Targets outside
// [MinReplicas, MaxReplicas] are rejected locally before any API call.
func (a *Adapter) Scale(ctx context.Context, replicas int32) error {
	if replicas < MinReplicas || replicas > MaxReplicas {
		return commonerrors.NewValidationError(
			fmt.Sprintf("replicas must be within %d..%d, got %d", MinReplicas, MaxReplicas, replicas))
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	patch := fmt.Sprintf(`[{"op":"replace","path":"/spec/replicas","value":%d}]`, replicas)
	_, err := a.clientSet.AppsV1().Deployments(Namespace).Patch(ctx,
		Name, types.JSONPatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return wrapK8sError("scale", err)
	}
	klog.Infof("scaled deployment %s/%s to %d replicas", Namespace, Name, replicas)
	return nil
}

// Restart triggers a rolling restart the way kubectl does: a strategic merge
// patch stamping the pod template's restartedAt annotation.
func (a *Adapter) Restart(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	patch := fmt.Sprintf(`{"spec":{"template":{"metadata":{"annotations":{"%s":"%s"}}}}}`,
		restartedAtAnnotation, time.Now().UTC().Format(time.RFC3339))
	_, err := a.clientSet.AppsV1().Deployments(Namespace).Patch(ctx,
		Name, types.StrategicMergePatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return wrapK8sError("restart", err)
	}
	klog.Infof("restarted deployment %s/%s", Namespace, Name)
	return nil
}

// Status reads the deployment and its pods, selected by the app label.
func (a *Adapter) Status(ctx context.Context) (*DeploymentStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	deploy, err := a.clientSet.AppsV1().Deployments(Namespace).Get(ctx, Name, metav1.GetOptions{})
	if err != nil {
		return nil, wrapK8sError("status", err)
	}
	pods, err := a.clientSet.CoreV1().Pods(Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: fmt.Sprintf("%s=%s", common.AppLabelKey, Name),
	})
	if err != nil {
		return nil, wrapK8sError("status", err)
	}

	status := &DeploymentStatus{
		Name:              deploy.Name,
		Namespace:         deploy.Namespace,
		ReadyReplicas:     deploy.Status.ReadyReplicas,
		AvailableReplicas: deploy.Status.AvailableReplicas,
		UpdatedReplicas:   deploy.Status.UpdatedReplicas,
	}
	if deploy.Spec.Replicas != nil {
		status.SpecReplicas = *deploy.Spec.Replicas
	}
	for i := range pods.Items {
		status.Pods = append(status.Pods, podInfo(&pods.Items[i]))
	}
	return status, nil
}

// Connectivity verifies the deployment is reachable. The worker uses it as
// the post-restart check; pod cycling is deliberately not awaited.
func (a *Adapter) Connectivity(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := a.clientSet.AppsV1().Deployments(Namespace).Get(ctx, Name, metav1.GetOptions{})
	if err != nil {
		return wrapK8sError("connectivity", err)
	}
	return nil
}

func podInfo(pod *corev1.Pod) PodInfo {
	info := PodInfo{
		Name:  pod.Name,
		Phase: string(pod.Status.Phase),
	}
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady && cond.Status == corev1.ConditionTrue {
			info.Ready = true
			break
		}
	}
	for _, cs := range pod.Status.ContainerStatuses {
		info.Restarts += cs.RestartCount
	}
	if pod.Status.StartTime != nil {
		start := pod.Status.StartTime.Time
		info.StartTime = &start
	}
	return info
}

func wrapK8sError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || apierrors.IsTimeout(err) {
		return commonerrors.NewTimeout(fmt.Sprintf("%s %s/%s: %v", op, Namespace, Name, err))
	}
	return commonerrors.NewKubernetesError(fmt.Sprintf("%s %s/%s: %v", op, Namespace, Name, err))
}
